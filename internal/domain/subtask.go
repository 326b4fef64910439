package domain

type Subtask struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Status   Status    `json:"status"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Children []Subtask `json:"children,omitempty"`
}

func (s Subtask) Clone() Subtask {
	out := s
	out.Children = CloneSubtasks(s.Children)
	return out
}

// CloneSubtasks deep-copies a subtask tree.
func CloneSubtasks(nodes []Subtask) []Subtask {
	if nodes == nil {
		return nil
	}
	out := make([]Subtask, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}
