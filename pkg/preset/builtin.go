package preset

import (
	"context"

	"github.com/samcharles93/weft/pkg/bpe"
	"github.com/samcharles93/weft/pkg/tokenizer"
	"github.com/samcharles93/weft/pkg/wordpiece"
)

const assetHost = "https://storage.googleapis.com/weft-presets/models"

func registerBPE(name, description string, v tokenizer.Variant, vocab, merges Asset) {
	Register(name, Entry{
		Description: description,
		Variant:     v.Name,
		Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
			vocabPath, err := fetch(ctx, name, vocab)
			if err != nil {
				return nil, err
			}
			mergesPath, err := fetch(ctx, name, merges)
			if err != nil {
				return nil, err
			}
			return tokenizer.New(v, tokenizer.Config{
				Vocabulary: bpe.VocabFile(vocabPath),
				Merges:     bpe.MergeFile(mergesPath),
			})
		},
	})
}

func registerWordPiece(name, description string, v tokenizer.Variant, vocab Asset) {
	Register(name, Entry{
		Description: description,
		Variant:     v.Name,
		Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
			vocabPath, err := fetch(ctx, name, vocab)
			if err != nil {
				return nil, err
			}
			engine, err := wordpiece.NewFromFile(vocabPath, wordpiece.Options{UnknownToken: v.Unknown})
			if err != nil {
				return nil, err
			}
			return tokenizer.Wrap(v, engine)
		},
	})
}

func init() {
	registerBPE(
		"gpt2_base_en",
		"Byte-level BPE vocabulary of the 124M-parameter GPT-2 English model.",
		tokenizer.GPT2,
		Asset{
			Name:   "vocab.json",
			URL:    assetHost + "/gpt2_base_en/v1/vocab.json",
			SHA256: "196139668be63f3b5d6574427317ae82f612a97c5d1cdaf36ed2256dbf636783",
		},
		Asset{
			Name:   "merges.txt",
			URL:    assetHost + "/gpt2_base_en/v1/merges.txt",
			SHA256: "1ce1664773c50f3e0cc8842619a93edc4624525b728b188a9e0be33b7726adc5",
		},
	)

	registerBPE(
		"gpt2_medium_en",
		"Byte-level BPE vocabulary of the 355M-parameter GPT-2 English model.",
		tokenizer.GPT2,
		Asset{
			Name:   "vocab.json",
			URL:    assetHost + "/gpt2_medium_en/v1/vocab.json",
			SHA256: "196139668be63f3b5d6574427317ae82f612a97c5d1cdaf36ed2256dbf636783",
		},
		Asset{
			Name:   "merges.txt",
			URL:    assetHost + "/gpt2_medium_en/v1/merges.txt",
			SHA256: "1ce1664773c50f3e0cc8842619a93edc4624525b728b188a9e0be33b7726adc5",
		},
	)

	registerBPE(
		"gpt_neo_x_20b_en",
		"Byte-level BPE vocabulary of the 20B-parameter GPT-NeoX model trained on the Pile.",
		tokenizer.GPTNeoX,
		Asset{
			Name:   "vocab.json",
			URL:    assetHost + "/gpt_neo_x_20b_en/v1/vocab.json",
			SHA256: "a2a41d88f5cbb4a6c82a7c30de1dfd2de33dabf20a7bdc7b4c6cd3d485c5b925",
		},
		Asset{
			Name:   "merges.txt",
			URL:    assetHost + "/gpt_neo_x_20b_en/v1/merges.txt",
			SHA256: "e83a37d8ab22db0e5b5bcbd8d4cfa3d0b2a31a03e25c0a6ea4ba2e6a217aaeb9",
		},
	)

	registerBPE(
		"roberta_base_en",
		"Byte-level BPE vocabulary of the 125M-parameter RoBERTa English model.",
		tokenizer.RoBERTa,
		Asset{
			Name:   "vocab.json",
			URL:    assetHost + "/roberta_base_en/v1/vocab.json",
			SHA256: "be4d3c6f13f5acda3ca1abdbffb4db9e1ecf33a34a3b0b86ddad7b5378f77a39",
		},
		Asset{
			Name:   "merges.txt",
			URL:    assetHost + "/roberta_base_en/v1/merges.txt",
			SHA256: "75a37753dd7a28a2c5df80c28bf06e4ab08624839aff5f2325250464705caa71",
		},
	)

	registerWordPiece(
		"distil_bert_base_en_uncased",
		"WordPiece vocabulary of the 66M-parameter DistilBERT model, lowercased English.",
		tokenizer.DistilBERT,
		Asset{
			Name:   "vocab.txt",
			URL:    assetHost + "/distil_bert_base_en_uncased/v1/vocab.txt",
			SHA256: "07eced375cec144d27c900241f3e339478dec958f92fddbc551f295c992038a3",
		},
	)
}
