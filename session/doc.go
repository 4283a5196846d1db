// Package session runs one snc transfer end to end.
//
// A ReceiveSession listens on a port, accepts exactly one connection and
// copies everything it sends to an output sink. A TransmitSession connects
// to a destination and copies an input source into the connection. Both
// close every socket they open before returning, and both treat a cancelled
// context as a clean, interrupted end rather than an error.
//
// Example:
//
//	cfg := session.DefaultConfig()
//	cfg.PrintProgress = true
//	rs, err := session.NewReceiveSession(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := rs.Run(ctx, "1337", os.Stdout)
package session
