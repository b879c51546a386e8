package config

type WorkerKeyStruct struct {
	ActivityLogQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ActivityLogQueue: "activity_log_queue",
}
