// Package capture persists what the live sources receive.
//
// Recorder appends every live line to an auto-save file as it arrives,
// flushing every FlushLines lines or FlushInterval. Buffer keeps the newest
// raw lines in memory so WriteSnapshot can dump "everything so far" with a
// metadata header. Both file formats are valid replay input.
package capture
