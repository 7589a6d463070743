package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartAuditConsumer consumes the signup and donation queues and appends
// one line per event to logs/audit.log. It runs a reconnect loop per queue
// and never returns; processing errors are logged and the offending
// message rejected without requeue so the server keeps operating.
func StartAuditConsumer() {
	go consume(SignupCompletedQueue, formatSignup)
	go consume(DonationReceivedQueue, formatDonation)
}

func consume(queueName string, format func([]byte) (string, error)) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("audit-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, queueName, format); err != nil {
			log.Printf("audit-consumer: %s loop ended: %v; reconnecting", queueName, err)
			time.Sleep(2 * time.Second)
		}
		_ = conn.Close()
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, format func([]byte) (string, error)) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		line, err := format(d.Body)
		if err != nil {
			log.Printf("audit-consumer: bad %s message: %v", queueName, err)
			_ = d.Nack(false, false)
			continue
		}
		if err := appendAuditLine(line); err != nil {
			log.Printf("audit-consumer: write failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func formatSignup(body []byte) (string, error) {
	var ev SignupCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf("signup account=%d role=%s email=%s at=%s",
		ev.AccountID, ev.Role, ev.Email, ev.SignedUpAt), nil
}

func formatDonation(body []byte) (string, error) {
	var ev DonationReceivedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf("donation id=%d campaign=%d donor=%d amount=%.2f at=%s",
		ev.DonationID, ev.CampaignID, ev.DonorID, ev.Amount, ev.ReceivedAt), nil
}

func appendAuditLine(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "audit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s %s\n", time.Now().UTC().Format(time.RFC3339), line)
	return err
}
