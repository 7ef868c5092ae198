// File: properties_test.go
// Title: Trace Pipeline Properties
// Description: Generated traces checked for identifier assignment,
//              thread partitioning and text round trips.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package trace_test

import (
	"fmt"
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// generate writes a random well-formed trace. Every store gets a fresh
// non-zero value so the default checks accept it.
func generate(rng *rand.Rand, lines int) string {
	var sb strings.Builder
	next := 1
	for i := 0; i < lines; i++ {
		thread := rng.Intn(4)
		addr := rng.Intn(3)
		name := fmt.Sprintf("v%d", addr)
		if rng.Intn(2) == 0 {
			name = fmt.Sprintf("M[%d]", addr)
		}

		switch rng.Intn(4) {
		case 0:
			fmt.Fprintf(&sb, "%d: %s == %d\n", thread, name, rng.Intn(next))
		case 1:
			fmt.Fprintf(&sb, "%d: %s := %d\n", thread, name, next)
			next++
		case 2:
			fmt.Fprintf(&sb, "%d: sync\n", thread)
		default:
			fmt.Fprintf(&sb, "%d: {%s == %d; %s := %d}\n", thread, name, rng.Intn(next), name, next)
			next++
		}
	}
	return sb.String()
}

var _ = Describe("Engine", func() {
	var (
		engine *trace.Engine
		rng    *rand.Rand
	)

	BeforeEach(func() {
		engine = trace.New(trace.Options{Logger: mtlog.Discard()})
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	Context("with generated traces", func() {
		It("assigns consecutive identifiers shared only by atomic pairs", func() {
			for round := 0; round < 50; round++ {
				tr, err := engine.Parse(generate(rng, 1+rng.Intn(30)))
				Expect(err).NotTo(HaveOccurred())

				next := instr.ID(0)
				for i, in := range tr.Instructions {
					if in.Atomic && in.IsStore() {
						Expect(tr.Instructions[i-1].ID).To(Equal(in.ID))
						Expect(tr.Instructions[i-1].Atomic).To(BeTrue())
						continue
					}
					Expect(in.ID).To(Equal(next))
					next++
				}
				Expect(tr.Operations()).To(Equal(int(next)))
			}
		})

		It("partitions every instruction into its own thread in source order", func() {
			for round := 0; round < 50; round++ {
				tr, err := engine.Parse(generate(rng, 1+rng.Intn(30)))
				Expect(err).NotTo(HaveOccurred())
				Expect(tr.Threads.Len()).To(Equal(tr.Len()))

				for _, tid := range tr.ThreadIDs() {
					thread := tr.Thread(tid)
					for i, in := range thread {
						Expect(in.Thread).To(Equal(tid))
						if i > 0 {
							Expect(in.ID).To(BeNumerically(">=", thread[i-1].ID))
						}
					}
				}
			}
		})

		It("round trips through the canonical text form", func() {
			for round := 0; round < 50; round++ {
				tr, err := engine.Parse(generate(rng, 1+rng.Intn(30)))
				Expect(err).NotTo(HaveOccurred())

				text, err := tr.Format()
				Expect(err).NotTo(HaveOccurred())

				again, err := engine.Parse(text)
				Expect(err).NotTo(HaveOccurred())
				Expect(again.Instructions).To(Equal(tr.Instructions))
			}
		})

		It("rebuilds the same partition from the flat sequence", func() {
			tr, err := engine.Parse(generate(rng, 25))
			Expect(err).NotTo(HaveOccurred())

			rebuilt, err := engine.FromInstructions(tr.ID, tr.Instructions)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt.Threads).To(Equal(tr.Threads))
		})
	})

	Context("with rejected traces", func() {
		DescribeTable("classifies the failure",
			func(input string, is func(error) bool) {
				tr, err := engine.Parse(input)
				Expect(tr).To(BeNil())
				Expect(err).To(HaveOccurred())
				Expect(is(err)).To(BeTrue())
				Expect(trace.IsRejected(err)).To(BeTrue())
			},
			Entry("missing colon", "0 v0 == 1", trace.IsGrammarError),
			Entry("unterminated pair", "0: {v0 == 1; v0 := 2", trace.IsGrammarError),
			Entry("store then load pair", "0: {v0 := 1; v0 == 1}", trace.IsGrammarError),
			Entry("pair over two addresses", "0: {v0 == 0; M[1] := 1}", trace.IsAtomicAddressMismatch),
			Entry("pair over two addresses before a stray brace", "0: {v0 == 1; v1 := 1} }", trace.IsAtomicAddressMismatch),
			Entry("initial value stored", "3: M[2] := 0", trace.IsInitialValueWritten),
			Entry("value stored twice", "0: v0 := 4\n0: v0 := 4", trace.IsDuplicateStoreValue),
		)

		It("reports the first failure in source order", func() {
			_, err := engine.Parse("0: {v0 == 0; v1 := 1}\n1: v0 = 2")
			Expect(trace.IsAtomicAddressMismatch(err)).To(BeTrue())

			m, ok := trace.AsAtomicMismatch(err)
			Expect(ok).To(BeTrue())
			Expect(m.LoadAddress).To(Equal(instr.Address(0)))
			Expect(m.StoreAddress).To(Equal(instr.Address(1)))
		})
	})
})
