package lib

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
)

const (
	promptPayAID = "A000000677010111"
	currencyTHB  = "764"
)

var nonDigits = regexp.MustCompile(`\D`)

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// promptPayTarget returns the sub-tag and the 13 digit account of a phone
// number, tax id or e-wallet id.
func promptPayTarget(id string) (string, string) {
	digits := nonDigits.ReplaceAllString(id, "")
	switch {
	case len(digits) >= 15:
		return "03", digits
	case len(digits) >= 13:
		return "02", digits
	}
	if strings.HasPrefix(digits, "0") {
		digits = "66" + digits[1:]
	}
	padded := strings.Repeat("0", 13) + digits
	return "01", padded[len(padded)-13:]
}

// PromptPayPayload builds the EMVCo merchant payload for a PromptPay
// transfer to id. An amount of 0 leaves the amount for the payer to enter.
func PromptPayPayload(id string, amount float64) string {
	tag, account := promptPayTarget(id)
	initiation := "11"
	if amount > 0 {
		initiation = "12"
	}
	var b strings.Builder
	b.WriteString(emvField("00", "01"))
	b.WriteString(emvField("01", initiation))
	b.WriteString(emvField("29", emvField("00", promptPayAID)+emvField(tag, account)))
	b.WriteString(emvField("58", "TH"))
	b.WriteString(emvField("53", currencyTHB))
	if amount > 0 {
		b.WriteString(emvField("54", fmt.Sprintf("%.2f", amount)))
	}
	b.WriteString("6304")
	return b.String() + fmt.Sprintf("%04X", CRC16(b.String()))
}

// CRC16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func CRC16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// SaveQRCode renders text as a QR image under dir and returns the file path.
func SaveQRCode(text, dir string) (string, error) {
	qrc, err := qrcode.New(text)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filepath := path.Join(dir, fmt.Sprintf("%s.jpeg", uuid.NewString()))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}

// WriteQRCode renders text as a QR image into w. The intermediate file under
// dir is removed before returning.
func WriteQRCode(text, dir string, w io.Writer) error {
	file, err := SaveQRCode(text, dir)
	if err != nil {
		return err
	}
	defer os.Remove(file)
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
