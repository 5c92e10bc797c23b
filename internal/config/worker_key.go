package config

type WorkerKeyStruct struct {
	ProcessProfilesQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ProcessProfilesQueue: "process_profiles_queue",
}
