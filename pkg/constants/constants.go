package constants

type ContextKey string

const (
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	RequestStart ContextKey = "request_start"
)
