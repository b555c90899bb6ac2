package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/pflag"

	"resume-fit-go/internal/parser"
	"resume-fit-go/internal/scoring"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/types"
)

// 命令行参数定义
var (
	csvPath      = pflag.StringP("csv", "f", "", "标注样本CSV路径 (必填, 列: resume_text,job_text,human_label)")
	taxonomyPath = pflag.String("taxonomy", "internal/taxonomy/skills.yaml", "技能分类表路径")
	outPath      = pflag.StringP("out", "o", "params.json", "最优参数输出路径")
	workers      = pflag.Int("workers", 4, "并行评估的协程数")
)

// 分类标签与阈值，低于25为reject，依次类推
var calibrationLabels = []string{"reject", "stretch", "on_target", "strong"}

// 参数网格
var (
	deltaGrid  = []float64{0.25, 0.35, 0.45}
	etaGrid    = []float64{0.1, 0.15, 0.2}
	epsGrid    = []float64{0.03, 0.05, 0.07}
	lambdaGrid = []float64{0.01, 0.03, 0.05}
)

// 标注样本里的简历只是技能词表，统一按固定时间范围构造实例
var (
	calibrationNow   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resumeTokenSplit = regexp.MustCompile(`[\n,;]`)
)

type labeledPair struct {
	resumeText string
	jobText    string
	humanLabel string
}

type candidate struct {
	params scoring.Params
	lambda float64
}

type calibrationResult struct {
	Delta  float64 `json:"delta"`
	Eta    float64 `json:"eta"`
	Eps    float64 `json:"eps"`
	Lambda float64 `json:"lambda"`
}

func main() {
	pflag.Parse()
	if *csvPath == "" {
		fmt.Println("错误: 必须指定 --csv 标注样本路径")
		pflag.Usage()
		os.Exit(1)
	}

	tax, err := taxonomy.Load(*taxonomyPath)
	if err != nil {
		fmt.Printf("加载技能分类表失败: %v\n", err)
		os.Exit(1)
	}

	rows, err := loadPairs(*csvPath)
	if err != nil {
		fmt.Printf("读取标注样本失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("已加载 %d 条标注样本\n", len(rows))

	defaults := candidate{params: scoring.DefaultParams(), lambda: 0.03}
	acc, cm := evaluate(rows, tax, defaults)
	fmt.Printf("默认参数准确率: %.3f\n", acc)
	printConfusionMatrix(cm)

	fmt.Println("开始网格搜索...")
	best, bestAcc, err := gridSearch(rows, tax)
	if err != nil {
		fmt.Printf("网格搜索失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("最优参数: delta=%.2f eta=%.2f eps=%.2f lambda=%.2f\n",
		best.params.Delta, best.params.Eta, best.params.Eps, best.lambda)
	fmt.Printf("最优准确率: %.3f\n", bestAcc)

	result := calibrationResult{
		Delta:  best.params.Delta,
		Eta:    best.params.Eta,
		Eps:    best.params.Eps,
		Lambda: best.lambda,
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("序列化最优参数失败: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		fmt.Printf("写入最优参数失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("最优参数已写入 %s\n", *outPath)
}

// loadPairs 读取标注样本CSV，要求表头含 resume_text / job_text / human_label
func loadPairs(path string) ([]labeledPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("样本文件至少需要表头和一行数据")
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"resume_text", "job_text", "human_label"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("缺少必需的列: %s", required)
		}
	}

	pairs := make([]labeledPair, 0, len(records)-1)
	for _, record := range records[1:] {
		pairs = append(pairs, labeledPair{
			resumeText: record[col["resume_text"]],
			jobText:    record[col["job_text"]],
			humanLabel: record[col["human_label"]],
		})
	}
	return pairs, nil
}

// evaluate 对一组参数计算整体准确率和混淆矩阵（行=真值, 列=预测）
func evaluate(rows []labeledPair, tax *taxonomy.Taxonomy, c candidate) (float64, [4][4]int) {
	var cm [4][4]int
	correct := 0
	for _, row := range rows {
		score := scoreExample(row, tax, c)
		pred := classify(score)
		if pred == row.humanLabel {
			correct++
		}
		t, p := labelIndex(row.humanLabel), labelIndex(pred)
		if t >= 0 && p >= 0 {
			cm[t][p]++
		}
	}
	if len(rows) == 0 {
		return 0, cm
	}
	return float64(correct) / float64(len(rows)), cm
}

// scoreExample 对单个样本跑完整的打分管线
func scoreExample(row labeledPair, tax *taxonomy.Taxonomy, c candidate) float64 {
	job := parser.ParseJob(row.jobText)

	var instances []types.SkillInstance
	for _, token := range resumeTokenSplit.Split(row.resumeText, -1) {
		if t := strings.TrimSpace(token); t != "" {
			instances = append(instances, types.SkillInstance{Name: t, Start: "2020-01", End: "2024-01"})
		}
	}

	jobVec, resumeVec, _ := scoring.BuildVectors(
		parser.PostingText(job), job.RequiredSkills, job.PreferredSkills,
		instances, c.lambda, calibrationNow)
	clusterMap := scoring.BuildClusterMap(jobVec, resumeVec, tax)
	score, _ := scoring.ScorePair(resumeVec, jobVec, job.RequiredSkills, 0, clusterMap, c.params)
	return score
}

// gridSearch 并行评估参数网格的全部组合，返回准确率最高者
func gridSearch(rows []labeledPair, tax *taxonomy.Taxonomy) (candidate, float64, error) {
	var combos []candidate
	for _, delta := range deltaGrid {
		for _, eta := range etaGrid {
			for _, eps := range epsGrid {
				for _, lambda := range lambdaGrid {
					combos = append(combos, candidate{
						params: scoring.Params{Delta: delta, Eta: eta, Eps: eps},
						lambda: lambda,
					})
				}
			}
		}
	}

	pool, err := ants.NewPool(*workers)
	if err != nil {
		return candidate{}, 0, fmt.Errorf("创建评估协程池失败: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup
	best := combos[0]
	bestAcc := -1.0

	for _, combo := range combos {
		wg.Add(1)
		c := combo
		if err := pool.Submit(func() {
			defer wg.Done()
			acc, _ := evaluate(rows, tax, c)
			mu.Lock()
			if acc > bestAcc {
				bestAcc = acc
				best = c
			}
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return candidate{}, 0, fmt.Errorf("提交评估任务失败: %w", err)
		}
	}
	wg.Wait()
	return best, bestAcc, nil
}

func classify(score float64) string {
	switch {
	case score < 25:
		return "reject"
	case score < 50:
		return "stretch"
	case score < 75:
		return "on_target"
	default:
		return "strong"
	}
}

func labelIndex(label string) int {
	for i, l := range calibrationLabels {
		if l == label {
			return i
		}
	}
	return -1
}

func printConfusionMatrix(cm [4][4]int) {
	fmt.Println("混淆矩阵 (行=真值, 列=预测):")
	fmt.Printf("%12s", "")
	for _, l := range calibrationLabels {
		fmt.Printf("%12s", l)
	}
	fmt.Println()
	for i, l := range calibrationLabels {
		fmt.Printf("%12s", l)
		for j := range calibrationLabels {
			fmt.Printf("%12d", cm[i][j])
		}
		fmt.Println()
	}
}
