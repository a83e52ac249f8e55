// Package log provides structured logging with sanitization of recognized
// screen text.
//
// OCR output is uniquely hazardous to log: a capture can contain whatever
// happened to be on screen, including passwords, tokens, and private keys.
// The handler in this package masks values that look like credentials and
// truncates long text attributes so full recognition output never lands in
// log files verbatim.
package log
