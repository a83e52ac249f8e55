// Package capture grabs screen pixels and turns them into PNG-encoded
// image bytes for recognition.
//
// The ScreenCapturer captures the primary display with kbinani/screenshot
// and crops to an optional region, mirroring how the desktop app captured
// full-screen first and cropped afterwards. Every capture is hashed with
// BLAKE2b-256 so history entries stay tied to the exact pixels that
// produced them even when the screenshot file is not retained.
package capture
