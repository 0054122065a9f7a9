/*
Package patch implements patch management and persistence orchestration.

A patch is a saved engine snapshot. The Manager serializes access to each patch ID
so read-modify-write cycles from concurrent callers (HTTP handlers, CLI commands,
other replicas through a ports.DistributedLocker) never lose updates.
*/
package patch
