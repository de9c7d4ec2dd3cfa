// Package broadcast implements the command broadcaster.
//
// On every tick the Broadcaster prunes stale clients from the registry and writes
// the current command to each remaining client's command port as one UDP datagram.
// Delivery is fire and forget; repeating the latest command every tick is what
// makes up for lost datagrams.
package broadcast
