package entities

// Pass is a confirmed guest's entry pass: the token embedded in the QR code
// and its rendered image.
type Pass struct {
	Token string
	PNG   []byte
	Guest Guest
}
