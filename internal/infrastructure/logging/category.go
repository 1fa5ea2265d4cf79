package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	Redis           Category = "Redis"
	RabbitMQ        Category = "RabbitMQ"
	Mongo           Category = "Mongo"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Room lifecycle
	Rooms       SubCategory = "Rooms"
	Messages    SubCategory = "Messages"
	FanOut      SubCategory = "FanOut"
	Destruction SubCategory = "Destruction"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomId       ExtraKey = "RoomId"
	MessageId    ExtraKey = "MessageId"
	ErrorMessage ExtraKey = "ErrorMessage"
)
