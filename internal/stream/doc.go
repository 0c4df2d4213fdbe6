// Package stream implements the Shared Stream Connection.
//
// One authenticated websocket session is multiplexed across all
// recorded instruments: the provider requires a single session per
// credential. Each subscription key gets its own buffered receive
// queue, so a slow consumer never blocks delivery to the others.
package stream
