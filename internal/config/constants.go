// internal/config/constants.go
package config

const (
	AppName    = "lms-certificate"
	AppVersion = "1.0.0"
)

const (
	DefaultServerPort = ":8080"
	DefaultLogLevel   = "info"
	DefaultMailerType = "log"
	DefaultIssuerName = "Learning Platform"
)
