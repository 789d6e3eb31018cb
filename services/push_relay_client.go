package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// PushRelayClient delivers broadcast payloads to the external push
// relay. Delivery is best-effort: callers report failures to the
// operator and never retry automatically.
type PushRelayClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewPushRelayClient(baseURL, token string) *PushRelayClient {
	return &PushRelayClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a relay endpoint is configured at all.
func (c *PushRelayClient) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

// Push POSTs one payload to /push/broadcast on the relay.
func (c *PushRelayClient) Push(payload map[string]interface{}) error {
	url := fmt.Sprintf("%s/push/broadcast", c.BaseURL)

	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		log.Printf("PushRelay /push/broadcast returned %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("push relay rejected broadcast: %d", resp.StatusCode)
	}
	return nil
}
