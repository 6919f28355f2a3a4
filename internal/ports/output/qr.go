package output

// QRRenderer draws a scannable code for a pass token.
type QRRenderer interface {
	PNG(token string, size int) ([]byte, error)
}
