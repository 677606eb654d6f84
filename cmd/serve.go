package cmd

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"dla/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the websocket simulation feed and prometheus metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := conf.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		upgrader := websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}
		return server.NewServer(addr, upgrader, conf).Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides [server] addr")
}
