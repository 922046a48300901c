// Command vidrec 为用户计算基于内容相似度的视频排序，并可投递到消息队列或通过 HTTP 提供服务。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
