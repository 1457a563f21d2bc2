package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"crxsou/client"
	"crxsou/config"
	"crxsou/mockapi"
	"crxsou/model"
	"crxsou/service"
	"crxsou/util"
	jsonutil "crxsou/util/json"
)

func main() {
	// 初始化应用
	initApp()

	// 解析命令行并执行
	run()
}

// initApp 初始化应用程序
func initApp() {
	// 初始化配置
	config.Init()

	// 初始化HTTP客户端
	util.InitHTTPClient()

	// 初始化日志
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
}

func run() {
	var (
		filePath  = flag.String("file", "", "从文件读取扩展ID列表（支持CSV/TSV/纯列表）")
		storesArg = flag.String("stores", "", "要搜索的商店，逗号分隔（默认取配置）")
		perms     = flag.Bool("perms", false, "报告中包含逐权限的风险分类")
		name      = flag.String("name", "", "按扩展名称做跨商店关联查询")
		history   = flag.String("history", "", "查询指定扩展ID的权限变更历史")
		store     = flag.String("store", "", "配合-history使用的商店名")
		health    = flag.Bool("health", false, "检查后端可用性")
		mock      = flag.Bool("mock", false, "以演示模式启动内置模拟后端")
	)
	flag.Parse()

	if *mock {
		runMockServer()
		return
	}

	var stores []string
	if *storesArg != "" {
		for _, s := range strings.Split(*storesArg, ",") {
			if s = strings.TrimSpace(s); s != "" {
				stores = append(stores, s)
			}
		}
	}

	c := client.NewClient(client.FromAppConfig())
	svc := service.NewLookupService(c, logrus.StandardLogger())
	ctx := context.Background()

	switch {
	case *health:
		resp, err := svc.Health(ctx)
		exitOnError(err)
		printJSON(resp)

	case *name != "":
		result, err := svc.CorrelateAcrossStores(ctx, *name, stores, 0)
		exitOnError(err)
		if len(result.Results) == 0 && len(result.SearchURLs) == 0 {
			fmt.Fprintln(os.Stderr, "no extensions found")
		}
		printJSON(result)

	case *history != "":
		resp, err := svc.PermissionHistory(ctx, *history, *store)
		exitOnError(err)
		printJSON(resp)

	default:
		runLookup(ctx, svc, *filePath, stores, *perms)
	}
}

// runLookup 执行扩展查询：单ID走同步查询，多ID走异步批量任务
func runLookup(ctx context.Context, svc *service.LookupService, filePath string, stores []string, perms bool) {
	text, err := gatherInput(filePath)
	exitOnError(err)

	svc.Tracker().OnProgress = func(p model.BulkProgress) {
		logrus.Infof("progress: %d/%d (%d%%)", p.Completed, p.Total, p.Pct)
	}

	ids := util.ParseExtensionIDs(text)

	var report *model.LookupReport
	if len(ids) == 1 {
		report, err = svc.SearchOne(ctx, ids[0], stores, perms)
	} else {
		report, err = svc.BulkSearchText(ctx, text, stores, perms)
	}
	exitOnError(err)

	printJSON(report)
}

// gatherInput 收集扩展ID输入：-file优先，其次位置参数，最后读标准输入
func gatherInput(filePath string) (string, error) {
	if filePath != "" {
		return util.ReadIDFile(filePath)
	}
	if args := flag.Args(); len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, util.MaxIDFileSize+1))
		if err != nil {
			return "", fmt.Errorf("read stdin failed: %w", err)
		}
		if len(data) > util.MaxIDFileSize {
			return "", fmt.Errorf("stdin input exceeds %d byte limit", util.MaxIDFileSize)
		}
		return string(data), nil
	}

	return "", fmt.Errorf("no input: pass extension ids as arguments, via -file, or on stdin")
}

// runMockServer 启动内置模拟后端（演示模式）
func runMockServer() {
	port := "5050"
	if config.AppConfig != nil && config.AppConfig.MockPort != "" {
		port = config.AppConfig.MockPort
	}

	server := mockapi.NewServer(mockapi.Options{Logger: logrus.StandardLogger()})
	fmt.Printf("模拟后端启动在 http://localhost:%s/api\n", port)
	if err := server.Run(":" + port); err != nil {
		logrus.Fatalf("启动模拟后端失败: %v", err)
	}
}

func printJSON(v interface{}) {
	data, err := jsonutil.MarshalIndent(v, "", "  ")
	exitOnError(err)
	fmt.Println(string(data))
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
