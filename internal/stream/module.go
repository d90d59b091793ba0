package stream

import "go.uber.org/fx"

// Module wires the order stream broker for dependency injection.
var Module = fx.Options(
	fx.Provide(NewBroker),
	fx.Provide(func(b *Broker) Publisher { return b }),
)
