package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type Context map[string]interface{}

type Message struct {
	Time    string  `json:"time"`
	Service string  `json:"service"`
	Message string  `json:"message"`
	Context Context `json:"context"`
}

var (
	processContext     Context
	processContextOnce sync.Once
)

func getProcessContext() Context {
	processContextOnce.Do(func() {
		processContext = Context{"pid": os.Getpid()}

		if hostname, err := os.Hostname(); err == nil {
			processContext["hostname"] = hostname
		}
	})

	return processContext
}

// LogFn receives every Debug line. The default writes one JSON object per
// line on stdout; the CLI replaces it.
var LogFn = func(service, message string) {
	data, err := json.Marshal(Message{
		Time:    time.Now().Format(time.RFC3339Nano),
		Service: service,
		Message: message,
		Context: getProcessContext(),
	})
	if err != nil {
		return
	}

	fmt.Println(string(data))
}

func Debug(service string, message string) {
	LogFn(service, message)
}
