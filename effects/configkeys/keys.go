package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectMemoPrefix = ConfigEffectPrefix + delimiter + "memo"

	ConfigEffectMemoHandlerPrefix     = ConfigEffectMemoPrefix + delimiter + "handler"
	ConfigEffectMemoHandlerBufferSize = ConfigEffectMemoHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectMemoHandlerNumWorkers = ConfigEffectMemoHandlerPrefix + delimiter + "num_workers"
	// deep | same_value
	ConfigEffectMemoEquality = ConfigEffectMemoPrefix + delimiter + "equality"

	ConfigEffectLogPrefix = ConfigEffectPrefix + delimiter + "log"

	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"

	ConfigEffectConcurrencyPrefix = ConfigEffectPrefix + delimiter + "concurrency"

	ConfigEffectConcurrencyHandlerPrefix     = ConfigEffectConcurrencyPrefix + delimiter + "handler"
	ConfigEffectConcurrencyHandlerBufferSize = ConfigEffectConcurrencyHandlerPrefix + delimiter + "buffer_size"

	ConfigCounterPrefix     = ConfigPrefix + delimiter + "counter"
	ConfigCounterIterations = ConfigCounterPrefix + delimiter + "iterations"
)
