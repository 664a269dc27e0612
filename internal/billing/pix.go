package billing

import (
	"fmt"
	"strings"
)

const (
	pixMerchant = "MenuFacil"
	pixCity     = "SAO PAULO"
)

// PixCode builds a static copy-and-paste PIX payload for key and amount,
// terminated by its CRC16 checksum.
func PixCode(key string, amount float64) string {
	account := emv("00", "br.gov.bcb.pix") + emv("01", key)

	var b strings.Builder
	b.WriteString(emv("00", "01"))
	b.WriteString(emv("26", account))
	b.WriteString(emv("52", "0000"))
	b.WriteString(emv("53", "986"))
	b.WriteString(emv("54", fmt.Sprintf("%.2f", amount)))
	b.WriteString(emv("58", "BR"))
	b.WriteString(emv("59", pixMerchant))
	b.WriteString(emv("60", pixCity))
	b.WriteString(emv("62", emv("05", "***")))
	b.WriteString("6304")
	return b.String() + fmt.Sprintf("%04X", crc16(b.String()))
}

func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16 is CRC-16/CCITT-FALSE, the checksum PIX payloads carry.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
