package rarity

import (
	"context"
	"sort"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/logger/xzap"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ranker 稀有度排名引擎
// 本地计算为纯函数，仅在集合只有单个token时走外部排名服务兜底
type Ranker struct {
	fallback *RankingClient
}

func NewRanker(fallback *RankingClient) *Ranker {
	return &Ranker{fallback: fallback}
}

// Occurrences trait出现次数统计表：category -> value -> count
type Occurrences map[string]map[string]int64

// BuildOccurrences 统计集合内每个trait取值的出现次数
func BuildOccurrences(tokens []entity.Token) Occurrences {
	occ := make(Occurrences)
	for i := range tokens {
		for trait, value := range tokens[i].Metadata.Properties {
			if occ[trait] == nil {
				occ[trait] = make(map[string]int64)
			}
			occ[trait][value]++
		}
	}
	return occ
}

// Score 单个token的稀有度得分
// 对token拥有的每个trait累加 collectionSize/occurrence，分数越高越稀有
// occurrence兜底为1，保证不会除零；无trait的token得分为0
func (occ Occurrences) Score(token *entity.Token, collectionSize int64) float64 {
	var score float64
	for trait, value := range token.Metadata.Properties {
		count := occ[trait][value]
		if count < 1 {
			count = 1
		}
		score += float64(collectionSize) / float64(count)
	}
	return score
}

// ComputeRanks 在单个集合范围内就地计算稀有度排名
// 并列分数共享名次：名次等于该分数在降序分数列表中首次出现的位置（1开始）
func ComputeRanks(tokens []entity.Token) {
	if len(tokens) == 0 {
		return
	}
	occ := BuildOccurrences(tokens)
	size := int64(len(tokens))

	scores := make([]float64, len(tokens))
	for i := range tokens {
		scores[i] = occ.Score(&tokens[i], size)
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	// 每个分数在降序列表中的首个位置
	firstIndex := make(map[float64]int, len(sorted))
	for i, score := range sorted {
		if _, ok := firstIndex[score]; !ok {
			firstIndex[score] = i + 1
		}
	}
	for i := range tokens {
		tokens[i].Rank = firstIndex[scores[i]]
	}
}

// Rank 计算排名入口
// 空集合直接返回；单token集合本地无从比较，改从外部排名服务取名次；
// 外部服务失败时保持rank为0，记录日志，不向上抛错
func (r *Ranker) Rank(ctx context.Context, tokens []entity.Token) {
	switch {
	case len(tokens) == 0:
		return
	case len(tokens) == 1:
		if r.fallback == nil {
			return
		}
		ranks, err := r.fallback.FetchRanks(ctx, []string{tokens[0].TokenID})
		if err != nil {
			xzap.WithContext(ctx).Warn("failed on fetch external rank",
				zap.Uint64("contract_id", tokens[0].ContractID),
				zap.String("token_id", tokens[0].TokenID), zap.Error(err))
			return
		}
		if rank, ok := ranks[tokens[0].TokenID]; ok {
			tokens[0].Rank = rank
		}
	default:
		ComputeRanks(tokens)
	}
}

// TraitPercentages 计算单个token每个trait在集合内的占比
func TraitPercentages(token *entity.Token, occ Occurrences, collectionSize int64) []entity.TraitInfo {
	var infos []entity.TraitInfo
	for trait, value := range token.Metadata.Properties {
		count := occ[trait][value]
		if count == 0 {
			continue
		}
		percent := 0.0
		if collectionSize != 0 {
			percent = decimal.NewFromInt(count).
				DivRound(decimal.NewFromInt(collectionSize), 4).
				Mul(decimal.NewFromInt(100)).
				InexactFloat64()
		}
		infos = append(infos, entity.TraitInfo{
			Trait:        trait,
			TraitValue:   value,
			TraitAmount:  count,
			TraitPercent: percent,
		})
	}
	// map遍历无序，固定输出顺序
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Trait == infos[j].Trait {
			return infos[i].TraitValue < infos[j].TraitValue
		}
		return infos[i].Trait < infos[j].Trait
	})
	return infos
}
