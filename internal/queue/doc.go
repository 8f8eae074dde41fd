// Package queue provides a visibility-timeout task queue backed by the
// same SQLite database that holds postings and skills.
//
// A published task is immediately visible. Claiming a task hides it for
// a visibility window; if the consumer acks within the window the task
// is gone, otherwise it reappears and another consumer (or the same one,
// after a restart) picks it up. No external broker is involved, which
// keeps the whole pipeline runnable from a single binary.
package queue
