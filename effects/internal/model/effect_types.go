package effectmodel

import "errors"

type EffectEnum string

const (
	EffectLog         EffectEnum = "memo_ive_go_effect_enum_log"
	EffectConcurrency EffectEnum = "memo_ive_go_effect_enum_concurrency"
	EffectBinding     EffectEnum = "memo_ive_go_effect_enum_binding"
	EffectMemo        EffectEnum = "memo_ive_go_effect_enum_memo"
)

var ErrNoEffectHandler = errors.New("no effect handler registered for this effect")

type EffectScopeConfig struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

func NewEffectScopeConfig(bufferSize int, numWorkers int) EffectScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return EffectScopeConfig{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

// Partitionable payloads are routed to a worker by PartitionKey.
// Payloads sharing a key are always handled by the same worker, in order.
type Partitionable interface {
	PartitionKey() string
}
