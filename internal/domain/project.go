package domain

// ProjectLabel returns the best display name for the task's owning project.
// It prefers ProjectName, then ProjectID, and finally "--" when unset.
func (t Task) ProjectLabel() string {
	return CoalesceStr(t.ProjectName, t.ProjectID, "--")
}

// InProject reports whether the task references the given project id.
func (t Task) InProject(projectID string) bool {
	return projectID != "" && t.ProjectID == projectID
}
