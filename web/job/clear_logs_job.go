package job

import (
	"os"

	"dtportal/logger"
)

type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

// Here Run is an interface method of the Job interface
func (j *ClearLogsJob) Run() {
	logFile := logger.GetLogFilePath()
	if logFile == "" {
		return
	}
	if err := os.Truncate(logFile, 0); err != nil && !os.IsNotExist(err) {
		logger.Warning("clear logs job err:", err)
	}
}
