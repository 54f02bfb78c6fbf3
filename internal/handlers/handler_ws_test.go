package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/realtime"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func (suite *HandlerTestSuite) dialWS(token string) (*websocket.Conn, context.Context) {
	srv := httptest.NewServer(suite.router)
	suite.T().Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	suite.T().Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, url, nil)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })

	suite.Equal("ready", suite.readFrame(ctx, conn).Event)
	return conn, ctx
}

func (suite *HandlerTestSuite) readFrame(ctx context.Context, conn *websocket.Conn) realtime.Message {
	var msg realtime.Message
	suite.Require().NoError(wsjson.Read(ctx, conn, &msg))
	return msg
}

func (suite *HandlerTestSuite) TestWebsocket_JoinOwnChannelsAndReceive() {
	conn, ctx := suite.dialWS("client-token")

	suite.Require().NoError(wsjson.Write(ctx, conn, dto.ChannelFrame{Action: "join", Channel: "role:client"}))
	ack := suite.readFrame(ctx, conn)
	suite.Equal("joined", ack.Event)
	suite.Equal("role:client", ack.Channel)

	suite.Equal(1, suite.hub.Deliver("role:client", realtime.Message{
		Event:    "record.pending",
		RecordID: "rec-1",
		Payload:  json.RawMessage(`{"binId":"A2"}`),
	}))
	msg := suite.readFrame(ctx, conn)
	suite.Equal("record.pending", msg.Event)
	suite.Equal("rec-1", msg.RecordID)
	suite.JSONEq(`{"binId":"A2"}`, string(msg.Payload))

	suite.Require().NoError(wsjson.Write(ctx, conn, dto.ChannelFrame{Action: "join", Channel: "account:client-1"}))
	suite.Equal("joined", suite.readFrame(ctx, conn).Event)
	suite.Equal(1, suite.hub.Members("account:client-1"))

	suite.Require().NoError(wsjson.Write(ctx, conn, dto.ChannelFrame{Action: "leave", Channel: "role:client"}))
	suite.Equal("left", suite.readFrame(ctx, conn).Event)
	suite.Equal(0, suite.hub.Members("role:client"))
}

func (suite *HandlerTestSuite) TestWebsocket_ForeignChannelsRefused() {
	conn, ctx := suite.dialWS("client-token")

	for _, channel := range []string{"role:admin", "account:client-2", "role:staff"} {
		suite.Require().NoError(wsjson.Write(ctx, conn, dto.ChannelFrame{Action: "join", Channel: channel}))
		ack := suite.readFrame(ctx, conn)
		suite.Equal("rejected", ack.Event, channel)
		suite.Equal(0, suite.hub.Members(channel), channel)
	}
}

func (suite *HandlerTestSuite) TestWebsocket_RequiresToken() {
	srv := httptest.NewServer(suite.router)
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws", nil)
	suite.Error(err)
	suite.Require().NotNil(resp)
	suite.Equal(401, resp.StatusCode)
}
