package nodes

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/graph"
)

// ComprehensionTestGenerationNode generates a knowledge-check question for a
// task and truncates it to the normalized length limit.
type ComprehensionTestGenerationNode struct {
	port     ports.ComprehensionTestPort
	testType domain.ComprehensionTestType
}

func NewComprehensionTestGenerationNode(port ports.ComprehensionTestPort, testType domain.ComprehensionTestType) *ComprehensionTestGenerationNode {
	return &ComprehensionTestGenerationNode{port: port, testType: testType}
}

func (n *ComprehensionTestGenerationNode) Execute(ctx context.Context, state *graph.Context) error {
	if state.Task.Status != domain.StatusPendingComprehensionTest {
		return nil
	}

	test, err := n.port.GenerateComprehensionTest(ctx, state.Task, n.testType)
	if err != nil {
		return fmt.Errorf("comprehension test generation: %w", err)
	}

	test.Question = truncateQuestion(test.Question)

	state.InProgressComprehensionTest = test
	state.Task.ComprehensionTests = append(state.Task.ComprehensionTests, *test)
	state.Task.Status = domain.StatusPendingFollowOn
	return nil
}

// truncateQuestion normalizes a question to <= domain.MaxQuestionLength
// characters, per spec.md §4.3.
func truncateQuestion(q string) string {
	if len(q) <= domain.MaxQuestionLength {
		return q
	}
	return q[:domain.MaxQuestionLength]
}
