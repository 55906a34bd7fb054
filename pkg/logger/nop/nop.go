package nop

import "courier-dispatch/pkg/logger"

// Logger ничего не пишет, используется в тестах и там, где логгер не передали.
type Logger struct{}

func New() *Logger {
	return &Logger{}
}

func (Logger) Debug(string, ...logger.Field) {}
func (Logger) Info(string, ...logger.Field)  {}
func (Logger) Warn(string, ...logger.Field)  {}
func (Logger) Error(string, ...logger.Field) {}

func (l Logger) With(...logger.Field) logger.Logger {
	return l
}
