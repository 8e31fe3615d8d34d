package internal

import "time"

// Config is loaded from the environment at startup. The evidence store
// paths and the reasoner command are the only hard requirements; the
// ASR and vision commands are optional and their absence simply
// degrades the routes a run can take.
type Config struct {
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	EvidenceTopK       int `env:"EVIDENCE_TOP_K,default=6"`
	EvidenceItemChars  int `env:"RAG_EVIDENCE_ITEM_CHARS,default=500"`
	EvidenceTotalChars int `env:"RAG_EVIDENCE_TOTAL_CHARS,default=2200"`

	ReasonerCmd string `env:"REASONER_CMD,required=true"`
	AsrCmd      string `env:"ASR_CMD"`
	VisionCmd   string `env:"VISION_CMD"`

	ReasonerTimeout time.Duration `env:"REASONER_TIMEOUT,default=120s"`
	AsrTimeout      time.Duration `env:"ASR_TIMEOUT,default=60s"`
	VisionTimeout   time.Duration `env:"VISION_TIMEOUT,default=60s"`
}
