// Package platform picks the backend adapter for the build. Exactly one of
// the tagged files is compiled:
//
//	default              GLFW
//	linux,x11egl         X11 windows with EGL contexts
//	linux,glheadless     EGL pbuffers without a window system
//	js,wasm              WebGL canvases
package platform
