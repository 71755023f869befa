package workload

import (
	"math/rand/v2"

	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/sorted_list"
)

// Op is one list operation a worker intends to perform.
type Op struct {
	Action oplog.Action
	Value  int
}

// Source yields a worker's operations in program order.
type Source interface {
	Next() Op
}

// Sampler draws actions uniformly from oplog.Actions and values uniformly
// from [lo, hi). Two samplers built from the same seed, worker and range
// produce the same sequence.
type Sampler struct {
	rng *rand.Rand
	lo  int
	hi  int
}

func NewSampler(seed uint64, worker, lo, hi int) *Sampler {
	return &Sampler{
		rng: rand.New(rand.NewPCG(seed, uint64(worker))),
		lo:  lo,
		hi:  hi,
	}
}

func (s *Sampler) Next() Op {
	action := oplog.Actions[s.rng.IntN(len(oplog.Actions))]
	value := s.lo + s.rng.IntN(s.hi-s.lo)
	return Op{Action: action, Value: value}
}

// Script replays a fixed list of operations. Next panics past the end.
type Script struct {
	ops []Op
	pos int
}

func NewScript(ops ...Op) *Script {
	return &Script{ops: ops}
}

func (s *Script) Next() Op {
	op := s.ops[s.pos]
	s.pos++
	return op
}

func (s *Script) Len() int {
	return len(s.ops)
}

// Apply performs op against list and returns its outcome. Inserts always
// report true.
func Apply(list *sorted_list.SortedList, op Op) bool {
	switch op.Action {
	case oplog.ActionInsert:
		list.Insert(op.Value)
		return true
	case oplog.ActionDelete:
		return list.Delete(op.Value)
	default:
		return list.Search(op.Value)
	}
}

// samplers builds one Sampler per worker from cfg.
func samplers(cfg Config) []Source {
	out := make([]Source, cfg.Workers)
	for id := 1; id <= cfg.Workers; id++ {
		lo, hi := cfg.ValueRange(id)
		out[id-1] = NewSampler(cfg.Seed, id, lo, hi)
	}
	return out
}
