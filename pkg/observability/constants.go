// Copyright 2026 Can Karabay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observability

const (
	AttrServiceName  = "service.name"
	AttrToolName     = "tool.name"
	AttrLLMModel     = "llm.model"
	AttrTokensInput  = "llm.tokens.input"
	AttrTokensOutput = "llm.tokens.output"
	AttrErrorType    = "error.type"

	SpanGenerate      = "assistant.generate"
	SpanLLMRequest    = "assistant.llm_request"
	SpanToolExecution = "assistant.tool_execution"

	DefaultServiceName = "lectern"
)
