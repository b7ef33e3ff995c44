// Package filesystem provides implementations of the types.FS interface.
//
// Two implementations are available:
//   - NewOS() returns an implementation backed by the real OS filesystem
//   - NewAferoFS(fs) wraps any afero.Fs, which lets tests run against an
//     in-memory filesystem without touching disk
//
// Data bag resolution only ever reads: the interface is intentionally
// limited to Stat, ReadFile and Glob.
package filesystem
