// Package pipeline applies an ordered chain of named raster operations to a
// single image.
//
// A chain is a slice of Step values. Steps can be built directly, decoded
// from JSON, or parsed from the compact "op:arg,arg" form used on command
// lines and in tool arguments:
//
//	gamma:2.2  brighten:1.5  contrast:0.8  noise:0.1  extract:red
//	blur:1.5   sharpen       edge          scale:0.5,0.5,gaussian
//
// Apply validates the whole chain before touching any pixel and works on a
// private copy, so a failing chain leaves the input image unchanged.
package pipeline
