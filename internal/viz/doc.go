// Package viz renders body systems in the terminal.
//
// [Canvas] is a braille dot grid (2x4 dots per cell) and [Viewport] maps
// world coordinates onto it. [LiveModel] is a bubbletea program that steps
// a system in real time and draws bodies, trails and an energy graph.
package viz
