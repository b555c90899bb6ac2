package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"resume-fit-go/internal/parser"
	"resume-fit-go/internal/scoring"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/types"
)

// 命令行参数定义
var (
	resumePath   = pflag.String("resume", "", "简历文件路径, 支持 .txt 和 .pdf (必填)")
	jobPath      = pflag.String("job", "", "岗位描述文本文件路径 (必填)")
	jsonPath     = pflag.String("json", "", "解释结果输出路径, 省略则打印到标准输出")
	taxonomyPath = pflag.String("taxonomy", "internal/taxonomy/skills.yaml", "技能分类表路径")
)

func main() {
	pflag.Parse()
	if *resumePath == "" || *jobPath == "" {
		fmt.Println("错误: 必须指定 --resume 和 --job")
		pflag.Usage()
		os.Exit(1)
	}

	tax, err := taxonomy.Load(*taxonomyPath)
	if err != nil {
		fmt.Printf("加载技能分类表失败: %v\n", err)
		os.Exit(1)
	}

	explanation, err := runPipeline(context.Background(), tax, *resumePath, *jobPath)
	if err != nil {
		fmt.Printf("匹配失败: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(explanation, "", "  ")
	if err != nil {
		fmt.Printf("序列化解释失败: %v\n", err)
		os.Exit(1)
	}
	if *jsonPath == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*jsonPath, data, 0o644); err != nil {
		fmt.Printf("写入结果失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("解释已写入 %s (得分 %.1f, %s)\n", *jsonPath, explanation.Score, explanation.Label)
}

// runPipeline 本地跑完整的解析与打分管线，不依赖任何外部服务
func runPipeline(ctx context.Context, tax *taxonomy.Taxonomy, resumePath, jobPath string) (types.Explanation, error) {
	resumeText, err := readResume(ctx, resumePath)
	if err != nil {
		return types.Explanation{}, err
	}
	jobText, err := os.ReadFile(jobPath)
	if err != nil {
		return types.Explanation{}, fmt.Errorf("读取岗位描述失败: %w", err)
	}

	profile := parser.ParseResumeText(resumeText)
	posting := parser.ParseJob(string(jobText))

	now := time.Now()
	instances := parser.SkillInstances(profile, now)
	jobVec, resumeVec, evidence := scoring.BuildVectors(
		parser.PostingText(posting), posting.RequiredSkills, posting.PreferredSkills,
		instances, 0.03, now)
	clusterMap := scoring.BuildClusterMap(jobVec, resumeVec, tax)
	score, terms := scoring.ScorePair(resumeVec, jobVec, posting.RequiredSkills, 0, clusterMap, scoring.DefaultParams())
	return scoring.BuildExplanation(jobVec, resumeVec, posting.RequiredSkills, score, terms, evidence, clusterMap), nil
}

// readResume 读取简历内容，PDF走本地提取器
func readResume(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取简历文件失败: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return string(data), nil
	}

	extractor, err := parser.NewEinoPDFExtractor(ctx)
	if err != nil {
		return "", fmt.Errorf("初始化PDF提取器失败: %w", err)
	}
	text, err := extractor.ExtractText(ctx, data, path)
	if err != nil {
		return "", fmt.Errorf("提取PDF文本失败: %w", err)
	}
	return text, nil
}
