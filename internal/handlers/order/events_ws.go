package order

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const orderEventsChannel = "orders:events"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Le contrôle d'origine est fait par le middleware CORS en amont
	CheckOrigin: func(r *http.Request) bool { return true },
}

// OrderEvent est le message publié sur Redis à chaque changement de
// statut de commande.
type OrderEvent struct {
	UserID      string    `json:"user_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// PublishOrderEvent pousse un événement de commande sur Redis pub/sub.
// Fire-and-forget: un Redis muet ne bloque jamais un checkout.
func PublishOrderEvent(userID, orderNumber, status string) {
	event := OrderEvent{
		UserID:      userID,
		OrderNumber: orderNumber,
		Status:      status,
		Timestamp:   time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := database.RedisClient.Publish(context.Background(), orderEventsChannel, data).Err(); err != nil {
		log.Println("⚠️ Erreur publication événement commande:", err)
	}
}

// OrderEventsWS abonne le client WebSocket aux événements de SES
// commandes. Les événements des autres utilisateurs sont filtrés côté
// serveur.
func OrderEventsWS(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Erreur upgrade WebSocket:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.RedisClient.Subscribe(ctx, orderEventsChannel)
	defer pubsub.Close()

	// Détecte la fermeture côté client
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	log.Printf("🔌 WebSocket commandes ouvert pour %s", userID)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.UserID != userID {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
