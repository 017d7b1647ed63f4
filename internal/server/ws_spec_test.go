package server_test

import (
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/server"
)

var _ = Describe("Websocket stream", func() {
	var conn *websocket.Conn

	BeforeEach(func() {
		ts := httptest.NewServer(server.New(lookup.MustLoad(), quiet).Handler())
		DeferCleanup(ts.Close)

		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
		var err error
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = conn.Close() })
	})

	read := func() server.ServerMsg {
		var msg server.ServerMsg
		Expect(conn.SetReadDeadline(time.Now().Add(5 * time.Second))).To(Succeed())
		Expect(conn.ReadJSON(&msg)).To(Succeed())
		return msg
	}

	It("streams every sample and then completes", func() {
		Expect(conn.WriteJSON(map[string]any{
			"type":        server.MsgStartSimulation,
			"scenario_id": "bau",
			"params":      map[string]any{"end_year": 1910},
		})).To(Succeed())

		for year := 1900.0; year <= 1910; year++ {
			msg := read()
			Expect(msg.Type).To(Equal(server.MsgSimStep))
			Expect(msg.Year).To(Equal(year))
			Expect(msg.State).NotTo(BeNil())
			Expect(msg.State.Population.Population).To(BeNumerically(">", 1e9))
		}

		done := read()
		Expect(done.Type).To(Equal(server.MsgSimComplete))
		Expect(done.ScenarioID).To(Equal("bau"))
		Expect(done.TotalSteps).To(Equal(11))
	})

	It("acknowledges param updates before rerunning", func() {
		Expect(conn.WriteJSON(map[string]any{
			"type":        server.MsgUpdateParams,
			"scenario_id": "stabilized",
			"params":      map[string]any{"end_year": 1905, "pollution_control": 0.4},
		})).To(Succeed())

		Expect(read()).To(HaveField("Type", server.MsgParamsAck))
		steps := 0
		for {
			msg := read()
			if msg.Type == server.MsgSimComplete {
				break
			}
			Expect(msg.Type).To(Equal(server.MsgSimStep))
			steps++
		}
		Expect(steps).To(Equal(6))
	})

	It("reports unknown scenarios and malformed messages", func() {
		Expect(conn.WriteJSON(map[string]any{"type": server.MsgStartSimulation, "scenario_id": "nope"})).To(Succeed())
		msg := read()
		Expect(msg.Type).To(Equal(server.MsgSimError))
		Expect(msg.Message).To(ContainSubstring("not found"))

		Expect(conn.WriteMessage(websocket.TextMessage, []byte("{"))).To(Succeed())
		Expect(read().Type).To(Equal(server.MsgSimError))
	})

	It("reports divergence as an error message", func() {
		Expect(conn.WriteJSON(map[string]any{
			"type":        server.MsgStartSimulation,
			"scenario_id": "bau",
			"params":      map[string]any{"industrial_depreciation_rate": -0.5},
		})).To(Succeed())
		msg := read()
		Expect(msg.Type).To(Equal(server.MsgSimError))
		Expect(msg.Message).To(ContainSubstring("diverged"))
	})
})
