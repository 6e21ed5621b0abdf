package lifecycle

import (
	"context"
	"sync"
	"time"
)

const defaultSweepInterval = 1 * time.Minute

// AppointmentCompleter интерфейс сервиса завершения записей
type AppointmentCompleter interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Sweeper фоновый воркер жизненного цикла записей: периодически переводит
// истекшие активные записи в completed. Один проход — один идемпотентный
// UPDATE, поэтому перезапуски и параллельные инстансы безопасны.
type Sweeper struct {
	completer    AppointmentCompleter
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewSweeper создает новый воркер. При interval <= 0 используется
// дефолтный период прохода.
func NewSweeper(completer AppointmentCompleter, interval time.Duration, logger Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		completer:    completer,
		interval:     interval,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start запускает цикл воркера. Блокирует до отмены контекста или Stop.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("lifecycle sweeper started: interval=%s", s.interval)

	// Первый проход сразу, чтобы подхватить записи, истекшие пока сервис лежал
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle sweeper stopped by context")
			return
		case <-s.stopCh:
			s.logger.Info("lifecycle sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop останавливает воркер
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()
}

// sweep выполняет один проход завершения истекших записей
func (s *Sweeper) sweep(ctx context.Context) {
	now := s.timeProvider.Now()

	completed, err := s.completer.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("lifecycle sweeper: sweep failed: %v", err)
		return
	}
	if completed > 0 {
		s.logger.Info("lifecycle sweeper: completed %d elapsed appointments", completed)
	}
}
