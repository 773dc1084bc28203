// Package main 是终端对话客户端的入口点。
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"loanwise-go/pkg/chatclient"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	productID string
	userID    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatcli",
		Short: "贷款产品咨询助手的终端客户端",
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "API 服务地址")
	rootCmd.Flags().StringVar(&productID, "product", "", "产品 id，留空表示通用咨询")
	rootCmd.Flags().StringVar(&userID, "user", "", "用户 id，留空表示匿名")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	transcript := chatclient.NewTranscript(chatclient.New(serverURL, productID, userID))

	if err := transcript.Open(ctx); err != nil {
		return fmt.Errorf("打开会话失败: %w", err)
	}

	for _, entry := range transcript.Entries() {
		printEntry(entry)
	}
	fmt.Println("输入消息开始咨询，/retry 重发失败的消息，/quit 退出。")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/retry":
			failedID := transcript.LastFailedID()
			if failedID == "" {
				fmt.Println("没有待重发的消息。")
				continue
			}
			reply, err := transcript.Resend(ctx, failedID)
			if err != nil {
				fmt.Printf("重发失败: %v\n", err)
				continue
			}
			printEntry(chatclient.Entry{Message: *reply, State: chatclient.StateConfirmed})
		default:
			reply, err := transcript.Send(ctx, line)
			if err != nil {
				fmt.Printf("发送失败: %v（消息保留在转录中，/retry 可重发）\n", err)
				continue
			}
			printEntry(chatclient.Entry{Message: *reply, State: chatclient.StateConfirmed})
		}
	}
}

func printEntry(entry chatclient.Entry) {
	label := "你"
	if entry.Message.Role == "assistant" {
		label = "助手"
	}
	suffix := ""
	switch entry.State {
	case chatclient.StatePending:
		suffix = " (发送中)"
	case chatclient.StateFailed:
		suffix = " (发送失败)"
	}
	fmt.Printf("[%s]%s %s\n", label, suffix, entry.Message.Content)
}
