// Package filters implements the PDF stream decoding pipeline.
//
// [Decode] applies an ordered chain of filters to a stream's raw bytes:
//
//	decoded, err := filters.Decode(raw, []string{"ASCII85Decode", "FlateDecode"}, nil)
//
// # Supported Filters
//
//   - FlateDecode: zlib, with a raw deflate fallback when the zlib header
//     is missing
//   - LZWDecode: 9 to 12 bit codes, honouring EarlyChange
//   - ASCII85Decode and ASCIIHexDecode
//   - RunLengthDecode
//
// Flate and LZW output goes through predictor reversal when the decode
// parameters ask for it: TIFF Predictor 2, or PNG predictors 10 to 15
// driven by Columns, Colors and BitsPerComponent.
//
// DCTDecode, JPXDecode and JBIG2Decode are image codecs. Their payload
// is returned unchanged. CCITTFaxDecode is rejected with
// [ErrUnsupportedFilter], as is any unknown filter name.
//
// # Encoders
//
// [FlateEncode], [ASCII85Encode], [ASCIIHexEncode] and [RunLengthEncode]
// produce data the matching decoder accepts.
package filters
