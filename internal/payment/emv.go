package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the receiving end of every pix charge: the marketplace's pix
// key and how the beneficiary appears in the payer's banking app. Window is
// how long a charge stays payable; zero means the default.
type Config struct {
	Key         string
	Beneficiary string
	City        string
	Window      time.Duration
}

// BuildPayload assembles the BR Code (EMV) copy-and-paste string for a pix
// charge. Fields are tag + two-digit length + value; the trailing 6304 tag
// carries the CRC-16 of everything before it, itself included.
func BuildPayload(cfg Config, txID string, amount decimal.Decimal) string {
	account := "0014BR.GOV.BCB.PIX" + emvField("01", cfg.Key)

	payload := "000201"
	payload += emvField("26", account)
	payload += "52040000"
	payload += "5303986"
	payload += emvField("54", amount.StringFixed(2))
	payload += "5802BR"
	payload += emvField("59", truncate(cfg.Beneficiary, 25))
	payload += emvField("60", truncate(cfg.City, 15))
	payload += emvField("62", emvField("05", txID))
	payload += "6304"
	payload += crc16(payload)

	return payload
}

func emvField(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), uppercase hex, as
// the BR Code spec requires.
func crc16(data string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
