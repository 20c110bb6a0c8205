// Package audio plays a short sound when a notification is shown. Sounds
// are configured per severity and decoded with beep (WAV, OGG and MP3).
package audio
