// Package headless renders without a window system. A window is an EGL
// pbuffer on the first usable GPU device; it has a size and receives
// lifecycle events but is never shown.
package headless

// Name identifies the backend in logs and reports.
const Name = "headless"
