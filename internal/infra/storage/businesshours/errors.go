package businesshours

import "errors"

var (
	// ErrHoursNotFound возвращается, когда для бизнеса нет записи
	// рабочих часов на указанный день недели
	ErrHoursNotFound = errors.New("businesshours.repository: hours not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("businesshours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("businesshours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("businesshours.repository: failed to scan row")
)
