/*
Package notify provides custody.EventSink implementations.

Sinks never fail the operation that emitted the event. Use Recorder in
tests, Logger to trace events through the context logger and Tagger to
collect tendermint style tags for indexing. Multi combines any of them.
*/
package notify
