package common

import (
	"os"
)

const serviceName = "shiftgate"

var serviceInstance = ""

func GetServiceName() string {
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		return name
	}
	return serviceName
}

func GetServiceInstance() string {
	if serviceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return serviceName
		}
		serviceInstance = hostname
	}
	return serviceInstance
}
