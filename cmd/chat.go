package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chatAgentName string

var chatCmd = &cobra.Command{
	Use:   "chat <url>",
	Short: "Chat about a landing page from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		agentName := chatAgentName
		if agentName == "" {
			agentName = cfg.Chat.AgentName
		}

		rec, err := env.extractor.Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		zap.L().Info("page extracted", zap.String("title", rec.Title))

		sessionID := env.history.CreateSession()
		fmt.Printf("Chatting about %q. Type a message, or an empty line to quit.\n", rec.Title)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			message := strings.TrimSpace(scanner.Text())
			if message == "" {
				break
			}

			reply, err := env.synth.Respond(cmd.Context(), sessionID, message, rec, agentName, "")
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", agentName, reply)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatAgentName, "agent-name", "", "agent display name (default from config)")
	rootCmd.AddCommand(chatCmd)
}
