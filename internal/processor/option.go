package processor

import (
	"io"
	"log"
	"time"

	"resume-iq-go/internal/storage"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompPdfextractor 设置PDF提取器组件
func WithcompPdfextractor(extractor PDFExtractor) ComponentOpt {
	return func(c *Components) {
		c.PDFExtractor = extractor
	}
}

// WithcompRuleparser 设置规则解析器组件
func WithcompRuleparser(p RuleParser) ComponentOpt {
	return func(c *Components) {
		c.RuleParser = p
	}
}

// WithcompLlmparser 设置LLM解析器组件
func WithcompLlmparser(p ResumeParser) ComponentOpt {
	return func(c *Components) {
		c.LLMParser = p
	}
}

// WithcompJobparser 设置岗位解析器组件
func WithcompJobparser(p JobParser) ComponentOpt {
	return func(c *Components) {
		c.JobParser = p
	}
}

// WithcompRoadmapgenerator 设置路线图生成器组件
func WithcompRoadmapgenerator(g RoadmapGenerator) ComponentOpt {
	return func(c *Components) {
		c.RoadmapGen = g
	}
}

// WithcompStorage 设置存储组件
func WithcompStorage(storage *storage.Storage) ComponentOpt {
	return func(c *Components) {
		c.Storage = storage
	}
}

// ----- 设置选项 -----

// WithsetDebug 设置调试模式
func WithsetDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		} else {
			// 提供一个 discard logger 以防万一
			s.Logger = log.New(io.Discard, "", log.LstdFlags)
		}
	}
}

// WithsetUsellm 设置是否启用LLM解析器
func WithsetUsellm(useLLM bool) SettingOpt {
	return func(s *Settings) {
		s.UseLLM = useLLM
	}
}

// WithsetTimelocation 设置时区
func WithsetTimelocation(loc *time.Location) SettingOpt {
	return func(s *Settings) {
		if loc != nil {
			s.TimeLocation = loc
		} else {
			s.TimeLocation = time.Local
		}
	}
}
