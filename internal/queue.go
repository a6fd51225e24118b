package internal

// Job is a unit of deferred work. Identity is the pointer: queueing the same
// *Job twice before it runs schedules it once.
type Job struct {
	name string
	fn   func()
}

func NewJob(name string, fn func()) *Job {
	return &Job{name: name, fn: fn}
}

func (j *Job) Name() string {
	return j.name
}

func (j *Job) Run() {
	j.fn()
}

// lane is an ordered, deduplicated list of pending jobs.
type lane struct {
	jobs    []*Job
	pending map[*Job]struct{}
}

func newLane() *lane {
	return &lane{
		jobs:    make([]*Job, 0),
		pending: make(map[*Job]struct{}),
	}
}

func (l *lane) push(job *Job) bool {
	if _, ok := l.pending[job]; ok {
		return false
	}

	l.pending[job] = struct{}{}
	l.jobs = append(l.jobs, job)
	return true
}

// pop removes the oldest job. It leaves the pending set, so the job can be
// queued again while it runs.
func (l *lane) pop() (*Job, bool) {
	if len(l.jobs) == 0 {
		return nil, false
	}

	job := l.jobs[0]
	l.jobs[0] = nil
	l.jobs = l.jobs[1:]
	delete(l.pending, job)

	return job, true
}

func (l *lane) len() int {
	return len(l.jobs)
}

// JobQueue holds ordinary jobs and post-flush jobs. Post jobs only run once
// no ordinary job is pending.
type JobQueue struct {
	jobs *lane
	post *lane

	flushing bool
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		jobs: newLane(),
		post: newLane(),
	}
}

func (q *JobQueue) Enqueue(job *Job) bool {
	return q.jobs.push(job)
}

func (q *JobQueue) EnqueuePost(job *Job) bool {
	return q.post.push(job)
}

func (q *JobQueue) Len() int {
	return q.jobs.len() + q.post.len()
}

func (q *JobQueue) next() (*Job, bool) {
	if job, ok := q.jobs.pop(); ok {
		return job, true
	}
	return q.post.pop()
}
