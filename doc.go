// Package piz implements the PIZ wavelet compressor used by OpenEXR for
// lossless compression of high-dynamic-range scanline and tile data.
//
// A Codec is constructed once per concurrent worker with the channel
// schema and block geometry fixed for its lifetime, then driven through
// repeated Compress/Decompress calls. Each call deinterleaves pixel
// data by channel, range-compacts the occurring sample values into a
// dense prefix (package rangecompact), applies a reversible 2D wavelet
// transform per channel (package wavelet), and entropy-codes the result
// with a self-describing canonical Huffman coder (package huffman).
// Decompress runs the inverse chain.
package piz
