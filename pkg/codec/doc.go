// Package codec provides header serialization and deserialization for gamehdr.
//
// The codec package implements a one-byte header that summarizes a batch of
// games: whether they were rated, their time-control speed class and how many
// games the batch holds. It is the foundation for the header log and the
// batch storage.
//
// # Header Format
//
// A header is packed into a single byte, bit 0 being the least significant:
//
//	[Games(4)][Speed(3)][Mode(1)]
//
// Fields:
//   - Mode: bit 0, 1 for rated and 0 for casual
//   - Speed: bits 1-3, 0=ultrabullet 1=bullet 2=blitz 3=rapid 4=classical
//     5=correspondence; codes 6 and 7 are invalid
//   - Games: bits 4-7, unsigned count between 0 and 15
//
// For example a rated correspondence batch of 15 games packs to 0xFB.
//
// # Usage
//
//	c := codec.NewHeaderCodec()
//
//	b, err := c.Encode(codec.Header{Mode: codec.Rated, Speed: codec.Blitz, Games: 3})
//	if err != nil {
//	    return err
//	}
//
//	h, err := c.Decode(b)
//	if err != nil {
//	    return err
//	}
//
// Read and Write work on any io.ByteReader or io.ByteWriter, such as
// bufio.Reader, bufio.Writer or bytes.Buffer.
//
// # Error Handling
//
// Decoding fails with ErrInvalidEncoding when the speed field holds 6 or 7.
// Encoding fails with ErrGamesOutOfRange when Games exceeds MaxGames and with
// ErrUnknownSpeed for a Speed outside the six defined classes. A Mode other
// than Rated or Casual fails with ErrUnknownMode. Errors from the
// underlying stream are returned unchanged so callers can match io.EOF.
//
// # Thread Safety
//
// HeaderCodec holds no state and is safe for concurrent use as long as each
// call works on its own stream. Header is a plain value.
package codec
