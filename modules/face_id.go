package modules

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/utils"
	gotritonclient "github.com/okieraised/go-triton-client"
	"github.com/okieraised/go-triton-client/triton_proto"
	"gorgonia.org/tensor"
)

// InferenceSession runs a single-input, single-output model on a prepared
// tensor. Implementations are constructed once at process start and reused
// across requests.
type InferenceSession interface {
	Infer(input []float32, shape []int64) ([]float32, error)
}

// FeatureExtractor derives a fixed-dimension identity signature from a
// prepared face tensor. Every returned vector is either unit-length or the
// all-zero degenerate sentinel.
type FeatureExtractor interface {
	Embed(t *tensor.Dense) ([]float32, error)
	Variant() config.ExtractorVariant
	InputSize() int
}

// TritonSession binds one named model on a Triton inference server. The model
// configuration is fetched at construction so a missing or invalid model
// artifact stops the process before it serves traffic. The server-side
// instance group is single-threaded; concurrent Infer calls queue on the
// backend rather than fanning out.
type TritonSession struct {
	tritonClient *gotritonclient.TritonGRPCClient
	ModelParams  *config.FaceEmbeddingParams
	ModelConfig  *triton_proto.ModelConfigResponse
}

func NewTritonSession(triton *gotritonclient.TritonGRPCClient, cfg *config.FaceEmbeddingParams) (*TritonSession, error) {
	inferenceConfig, err := triton.GetModelConfiguration(cfg.Timeout, cfg.ModelName, "")
	if err != nil {
		return nil, fmt.Errorf("model %q configuration: %w", cfg.ModelName, err)
	}

	return &TritonSession{
		tritonClient: triton,
		ModelParams:  cfg,
		ModelConfig:  inferenceConfig,
	}, nil
}

func (s *TritonSession) Infer(input []float32, shape []int64) ([]float32, error) {
	inputCfg := s.ModelConfig.Config.Input[0]
	modelRequest := &triton_proto.ModelInferRequest{
		ModelName: s.ModelParams.ModelName,
		Inputs: []*triton_proto.ModelInferRequest_InferInputTensor{
			{
				Name:     inputCfg.Name,
				Datatype: inputCfg.DataType.String()[5:],
				Shape:    shape,
				Contents: &triton_proto.InferTensorContents{
					Fp32Contents: input,
				},
			},
		},
	}

	inferResp, err := s.tritonClient.ModelGRPCInfer(s.ModelParams.Timeout, modelRequest)
	if err != nil {
		return nil, err
	}
	if len(inferResp.RawOutputContents) == 0 {
		return nil, errors.New("inference response carries no output tensors")
	}

	// First output, flattened.
	return utils.BytesToT32[float32](inferResp.RawOutputContents[0]), nil
}

// FaceEmbeddingClient is the primary extractor: it feeds prepared tensors to
// the inference session and unit-normalizes the raw output.
type FaceEmbeddingClient struct {
	session InferenceSession
	params  *config.FaceEmbeddingParams
	logger  *slog.Logger
}

func NewFaceEmbeddingClient(session InferenceSession, cfg *config.FaceEmbeddingParams, logger *slog.Logger) *FaceEmbeddingClient {
	return &FaceEmbeddingClient{
		session: session,
		params:  cfg,
		logger:  logger,
	}
}

func (c *FaceEmbeddingClient) Variant() config.ExtractorVariant {
	return config.VariantModel
}

func (c *FaceEmbeddingClient) InputSize() int {
	return c.params.ImgSize
}

/*
Embed runs inference on a prepared tensor and returns the L2-normalized
embedding.

Inputs:

  - t (*tensor.Dense): preprocessed face tensor of shape (1, 3, S, S).

Outputs:

  - embedding ([]float32): unit-length vector, or the all-zero sentinel when
    the raw output norm falls below 1e-8.

Backend errors surface as ErrInferenceFailed and are logged with the input
shape; they are never silently replaced by a default embedding.
*/
func (c *FaceEmbeddingClient) Embed(t *tensor.Dense) ([]float32, error) {
	shape := make([]int64, 0, len(t.Shape()))
	for _, s := range t.Shape() {
		shape = append(shape, int64(s))
	}

	raw, err := c.session.Infer(t.Float32s(), shape)
	if err != nil {
		c.logger.Error("embedding inference failed",
			"model", c.params.ModelName,
			"input_shape", t.Shape(),
			"err", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	return NormalizeEmbedding(raw, c.logger), nil
}

// NormalizeEmbedding scales v to unit length. A raw norm below 1e-8 yields
// the all-zero sentinel of the same dimension, so downstream comparisons
// degrade to low similarity instead of dividing by near-zero.
func NormalizeEmbedding(v []float32, logger *slog.Logger) []float32 {
	out := make([]float32, len(v))
	norm := utils.L2Norm(v)
	if norm <= 1e-8 {
		if logger != nil {
			logger.Warn("degenerate embedding norm, using zero vector", "dim", len(v), "norm", norm)
		}
		return out
	}

	inv := float32(1.0 / norm)
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
