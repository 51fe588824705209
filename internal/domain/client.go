package domain

import "time"

type Client struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Branch é uma filial/endereço de um cliente que pode ser alvo de visita
type Branch struct {
	ID        int       `json:"id"`
	ClientID  int       `json:"client_id"`
	Client    *Client   `json:"client,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
