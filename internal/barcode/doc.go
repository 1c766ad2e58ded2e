// Package barcode turns block data into engine-loadable barcode rasters.
//
// Symbology encoding is delegated: concrete encoders (Data Matrix, QR) are
// pure data-to-image functions registered per Kind by the build that links
// them. The Generator encodes a payload once, publishes the PNG bytes as an
// engine virtual file, and hands back the virtual path so the worker's
// resource cache can load and own the image handle like any other block
// resource.
package barcode
