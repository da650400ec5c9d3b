// Package main runs a demo WebSocket client for solve events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Run a small solve to get a solution id.
	body := []byte(`{
		"matrix": [[0,1,2],[1,0,1],[2,1,0]],
		"vehicles": [{"id":"v1","capacity":[10],"start":0,"end":0}],
		"jobs": [
			{"id":"j1","locationIndex":1,"delivery":[1]},
			{"id":"j2","locationIndex":2,"delivery":[1]}
		],
		"options": {"strategy":"basic","init":"nearest"}
	}`)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var solveResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&solveResp); err != nil {
		log.Fatal(err)
	}
	if solveResp.ID == "" {
		log.Fatal("no solution id returned")
	}
	log.Printf("Solution ID: %s", solveResp.ID)

	// Connect WS and watch events published for this solution.
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/solutions/" + solveResp.ID + "/events/ws"}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m map[string]any
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %v", m)
		}
	}()

	// Wait briefly to receive messages
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
