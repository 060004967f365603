// Package remote renders into a host tree that lives on the other end of
// a websocket.
//
// Adapter implements fiber.HostAdapter on the render side. Every host
// operation is queued as a protocol.Mutation and the queue is sent as one
// batch frame when the scheduler flushes after a commit. Listeners stay on
// the render side: the replica only learns which events to forward, and
// Serve dispatches the forwarded events back onto the render loop.
//
// Replica is the other end. It applies batches to a memdom.Document and
// sends an event frame whenever a forwarded event fires on its tree.
package remote
