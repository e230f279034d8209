package service

import "github.com/chitragupt/chitragupt/internal/model"

// RecordKind identifies a record family in the store.
type RecordKind string

const (
	KindAccount       RecordKind = "account"
	KindContract      RecordKind = "contract"
	KindReviewRequest RecordKind = "review_request"
)

// Expectation guards one record of the commit's read set: the commit
// only applies if the record's version still equals Version at commit
// time. Version zero expects the record to be absent.
type Expectation struct {
	Kind    RecordKind
	ID      string
	Version Version
}

// OpType is the kind of write staged in a commit.
type OpType int

const (
	// OpPut inserts or replaces a record, bumping its version.
	OpPut OpType = iota
	// OpDelete removes a record.
	OpDelete
	// OpAppend appends a chat message; sequence number and timestamp
	// are assigned by the store at commit time.
	OpAppend
)

// WriteOp is one staged write. Exactly one of the record pointers is
// set, matching Kind; Delete ops carry only Kind and ID.
type WriteOp struct {
	Account  *model.Account
	Contract *model.Contract
	Request  *model.ReviewRequest
	Message  *model.ChatMessage
	ID       string
	Kind     RecordKind
	Op       OpType
}

// Commit is a staged optimistic transaction: the full set of writes an
// operation wants to apply, guarded by the versions of everything it
// read. Build it in memory, then hand it to Store.CommitIf.
type Commit struct {
	expects []Expectation
	ops     []WriteOp
}

// NewCommit returns an empty commit.
func NewCommit() *Commit {
	return &Commit{}
}

// Expect registers a read-set guard.
func (c *Commit) Expect(kind RecordKind, id string, v Version) *Commit {
	c.expects = append(c.expects, Expectation{Kind: kind, ID: id, Version: v})
	return c
}

// PutAccount stages an account upsert.
func (c *Commit) PutAccount(a *model.Account) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindAccount, Op: OpPut, ID: a.ID, Account: a})
	return c
}

// PutContract stages a contract upsert.
func (c *Commit) PutContract(ct *model.Contract) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindContract, Op: OpPut, ID: ct.ID, Contract: ct})
	return c
}

// PutReviewRequest stages a review request upsert.
func (c *Commit) PutReviewRequest(r *model.ReviewRequest) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindReviewRequest, Op: OpPut, ID: r.ID, Request: r})
	return c
}

// DeleteReviewRequest stages a review request deletion.
func (c *Commit) DeleteReviewRequest(id string) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindReviewRequest, Op: OpDelete, ID: id})
	return c
}

// DeleteContract stages a contract deletion.
func (c *Commit) DeleteContract(id string) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindContract, Op: OpDelete, ID: id})
	return c
}

// AppendMessage stages a chat message append. The store assigns Seq and
// Timestamp when the commit applies.
func (c *Commit) AppendMessage(m *model.ChatMessage) *Commit {
	c.ops = append(c.ops, WriteOp{Kind: KindContract, Op: OpAppend, ID: m.ContractID, Message: m})
	return c
}

// Expectations returns the registered read-set guards.
func (c *Commit) Expectations() []Expectation {
	return c.expects
}

// Ops returns the staged writes in the order they were added.
func (c *Commit) Ops() []WriteOp {
	return c.ops
}

// Empty reports whether the commit stages no writes.
func (c *Commit) Empty() bool {
	return len(c.ops) == 0
}
