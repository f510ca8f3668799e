package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PixPayload é um BR Code estático (padrão EMV MPM do Banco Central).
type PixPayload struct {
	Key          string
	MerchantName string
	MerchantCity string
	Amount       float64
	TxID         string
}

func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// String monta o "copia e cola" com o CRC16 no final.
func (p PixPayload) String() string {
	var b strings.Builder
	b.WriteString(emv("00", "01"))
	b.WriteString(emv("26", emv("00", "br.gov.bcb.pix")+emv("01", p.Key)))
	b.WriteString(emv("52", "0000"))
	b.WriteString(emv("53", "986"))
	if p.Amount > 0 {
		b.WriteString(emv("54", fmt.Sprintf("%.2f", p.Amount)))
	}
	b.WriteString(emv("58", "BR"))
	b.WriteString(emv("59", pixText(p.MerchantName, 25)))
	b.WriteString(emv("60", pixText(p.MerchantCity, 15)))

	txid := pixTxID(p.TxID)
	b.WriteString(emv("62", emv("05", txid)))

	b.WriteString("6304")
	b.WriteString(fmt.Sprintf("%04X", CRC16CCITT([]byte(b.String()))))
	return b.String()
}

// QRCode devolve o PNG do payload.
func (p PixPayload) QRCode(size int) ([]byte, error) {
	return qrcode.Encode(p.String(), qrcode.Medium, size)
}

// CRC16CCITT com polinômio 0x1021 e valor inicial 0xFFFF.
func CRC16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// pixText tira acentos e caracteres fora do ASCII imprimível.
func pixText(s string, max int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, s)
	if err != nil {
		clean = s
	}

	out := make([]byte, 0, len(clean))
	for _, r := range clean {
		if r >= 0x20 && r < 0x7f {
			out = append(out, byte(r))
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return strings.TrimSpace(string(out))
}

// pixTxID aceita só alfanuméricos, até 25; vazio vira "***".
func pixTxID(id string) string {
	out := make([]byte, 0, 25)
	for _, r := range id {
		if len(out) == 25 {
			break
		}
		if r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			out = append(out, byte(r))
		}
	}
	if len(out) == 0 {
		return "***"
	}
	return string(out)
}
