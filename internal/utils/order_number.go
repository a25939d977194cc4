package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber produit un numéro de commande unique et lisible,
// ex: ZYV-20260824-7KQ2NX. L'unicité est garantie par l'index unique
// MongoDB sur order_number; la partie aléatoire rend les collisions
// improbables.
func GenerateOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = orderNumberAlphabet[int(buf[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ZYV-%s-%s", now.Format("20060102"), string(buf)), nil
}
